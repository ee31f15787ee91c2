package api

// clockListID is the element holding the group and clock checkboxes
const clockListID = "lista-relogios"

// consolePage is the host page. Panels, command checkboxes, the clock list and
// the group mapping are filled in per request.
const consolePage = `<!DOCTYPE html>
<html lang="pt-BR">
<head>
<meta charset="utf-8">
<title>Envio de Comandos</title>
<style>
body { font-family: sans-serif; max-width: 960px; margin: 30px auto; padding: 0 20px; }
nav a { margin-right: 16px; }
.panel { border: 1px solid #cbd5e0; border-radius: 6px; padding: 16px; margin: 16px 0; }
label { display: block; margin: 4px 0; }
.grupos-relogios { margin-bottom: 8px; }
.progress-bar { background: #edf2f7; border-radius: 4px; margin: 12px 0; }
.progress-bar-fill { color: #1a202c; padding: 6px 10px; border-radius: 4px; }
.result { margin-top: 12px; }
.success { color: #2f855a; }
.error { color: #c53030; }
.download-section a { display: block; margin-top: 6px; }
</style>
</head>
<body>
<nav>
<a href="/console">Comandos e Relógios</a>
<a href="/console?aba=desligamento#desligamento">Desligamento</a>
<a href="/relatorios">Relatórios</a>
</nav>

<section id="panel-envio-comandos" class="panel">
<h2>Envio de Comandos</h2>
<form id="uploadForm" method="post" action="/console/comandos" enctype="multipart/form-data">
<label>Arquivo de matrículas <input type="file" id="arquivo" name="arquivo" accept=".xls,.xlsx,.csv,.txt"></label>
<label>Matrículas <input type="text" id="matriculas" name="matriculas" placeholder="123, 456, 789"></label>
<fieldset id="comandos"><legend>Comandos</legend></fieldset>
<fieldset>
<legend>Relógios</legend>
<div id="lista-relogios"></div>
<button type="submit" id="selectAllRelogios" name="acao" value="selecionar_todos" formaction="/console/relogios">Selecionar todos</button>
<button type="submit" id="deselectAllRelogios" name="acao" value="desmarcar_todos" formaction="/console/relogios">Desmarcar todos</button>
</fieldset>
<button type="submit" id="enviarComandos" formaction="/console/comandos">Enviar Comandos</button>
</form>
<div id="progressBar" class="progress-bar" style="display: none"><div class="progress-bar-fill"></div></div>
<div id="result" class="result" style="display: none"></div>
</section>

<section id="panel-envio-relogios" class="panel">
<h2>Associar Relógios</h2>
<p>Usa as matrículas e os relógios selecionados acima.</p>
<button type="submit" id="associarRelogios" form="uploadForm" formaction="/console/associar">Associar Relógios</button>
</section>

<section id="panel-desligamento" class="panel">
<h2>Desligamento</h2>
<form id="desligamentoForm" method="post" action="/console/desligar" enctype="multipart/form-data">
<label>Arquivo de desligamento <input type="file" id="arquivoDesligamento" name="arquivo" accept=".xls,.xlsx,.csv,.txt"></label>
<button type="submit" id="enviarDesligamento" formaction="/console/desligar">Processar Desligamento</button>
</form>
<div id="progressBarDesligamento" class="progress-bar" style="display: none"><div class="progress-bar-fill"></div></div>
<div id="resultDesligamento" class="result" style="display: none"></div>
</section>

<script>
document.addEventListener("DOMContentLoaded", () => {
  const grupos = window.gruposRelogios || {};

  function showPanels() {
    const desligamento = window.location.hash === "#desligamento";
    document.getElementById("panel-envio-comandos").style.display = desligamento ? "none" : "block";
    document.getElementById("panel-envio-relogios").style.display = desligamento ? "none" : "block";
    document.getElementById("panel-desligamento").style.display = desligamento ? "block" : "none";
  }
  if (window.location.hash) showPanels();
  window.addEventListener("hashchange", showPanels);

  function bindGroups() {
    document.querySelectorAll(".grupo-relogio-checkbox").forEach((box) => {
      box.addEventListener("change", () => {
        (grupos[box.dataset.grupo] || []).forEach((id) => {
          const clock = document.querySelector("input[name='relogios'][value='" + id + "']");
          if (clock) clock.checked = box.checked;
        });
      });
    });
  }
  bindGroups();

  function alertFrom(doc) {
    doc.querySelectorAll(".alert").forEach((el) => alert(el.textContent));
  }

  // checks the page can make before anything is sent; the texts come from the server
  function blockingAlert(form, button) {
    const d = button.dataset;
    const file = form.querySelector("input[type='file'][name='arquivo']");
    const hasFile = !!file && file.files.length > 0;
    if (d.alertaArquivo && !hasFile) return d.alertaArquivo;
    if (d.alertaFonte && !hasFile) {
      const typed = form.querySelector("[name='matriculas']");
      const raw = typed ? typed.value : "";
      if (!raw.trim()) return d.alertaFonte;
      if (!raw.split(",").some((m) => m.trim())) return d.alertaMatricula;
    }
    if (d.alertaComandos && !form.querySelector("input[name='comandos']:checked")) return d.alertaComandos;
    if (d.alertaRelogios && !form.querySelector("input[name='relogios']:checked")) return d.alertaRelogios;
    return "";
  }

  function showError(result, text) {
    result.innerHTML = "<p class=\"error\"></p>";
    result.firstChild.textContent = text;
    result.style.display = "block";
  }

  document.querySelectorAll("form").forEach((form) => {
    form.addEventListener("submit", async (e) => {
      const button = e.submitter;
      if (!button) return;
      e.preventDefault();

      const blocked = blockingAlert(form, button);
      if (blocked) {
        alert(blocked);
        return;
      }

      const data = new FormData(form);
      if (button.name) data.append(button.name, button.value);
      const action = button.getAttribute("formaction") || form.action;

      let bar = null;
      let result = null;
      if (button.dataset.result) {
        result = document.getElementById(button.dataset.result);
        result.innerHTML = "";
        result.style.display = "none";
        bar = document.getElementById(button.dataset.progressBar);
        const fill = bar.querySelector(".progress-bar-fill");
        fill.textContent = button.dataset.progressLabel;
        fill.style.backgroundColor = button.dataset.progressColor;
        bar.style.display = "block";
      }

      let response;
      let doc;
      try {
        response = await fetch(action, { method: "POST", body: data });
        doc = new DOMParser().parseFromString(await response.text(), "text/html");
      } catch (error) {
        if (bar) bar.style.display = "none";
        if (result) showError(result, "Erro de conexão: " + error.message);
        return;
      }
      if (bar) bar.style.display = "none";

      if (!result) {
        const list = doc.getElementById("lista-relogios");
        if (list) document.getElementById("lista-relogios").replaceWith(list);
        bindGroups();
        alertFrom(doc);
        return;
      }
      if (response.status === 422) {
        alertFrom(doc);
        return;
      }

      const panel = doc.getElementById(button.dataset.result);
      if (!panel) {
        const text = (doc.body ? doc.body.textContent : "").trim();
        showError(result, text || "Erro na requisição (HTTP " + response.status + ").");
        return;
      }
      result.replaceWith(panel);
      alertFrom(doc);
    });
  });
});
</script>
</body>
</html>
`

// reportsPage queries clock punches over a period and exports them as a workbook
const reportsPage = `<!DOCTYPE html>
<html lang="pt-BR">
<head>
<meta charset="utf-8">
<title>Relatório de Apontamentos</title>
<style>
body { font-family: sans-serif; max-width: 960px; margin: 30px auto; padding: 0 20px; }
nav a { margin-right: 16px; }
.panel { border: 1px solid #cbd5e0; border-radius: 6px; padding: 16px; margin: 16px 0; }
label { display: block; margin: 4px 0; }
.result { margin-top: 12px; }
.error { color: #c53030; }
table.apontamentos { border-collapse: collapse; width: 100%; }
table.apontamentos th, table.apontamentos td { border: 1px solid #cbd5e0; padding: 4px 8px; text-align: left; }
</style>
</head>
<body>
<nav>
<a href="/console">Comandos e Relógios</a>
<a href="/console?aba=desligamento#desligamento">Desligamento</a>
<a href="/relatorios">Relatórios</a>
</nav>

<section id="panel-relatorios" class="panel">
<h2>Relatório de Apontamentos</h2>
<form id="relatorioForm" method="post" action="/relatorios/apontamentos">
<label>Data inicial <input type="date" id="inicio" name="inicio" required></label>
<label>Data final <input type="date" id="fim" name="fim" required></label>
<label>Matrícula (opcional) <input type="text" id="matricula" name="matricula" inputmode="numeric"></label>
<button type="submit" id="consultarApontamentos" formaction="/relatorios/apontamentos">Consultar</button>
<button type="submit" id="exportarApontamentos" formaction="/relatorios/exportar">Exportar Excel</button>
</form>
<div id="resultRelatorio" class="result" style="display: none"></div>
</section>

<script>
document.addEventListener("DOMContentLoaded", () => {
  const form = document.getElementById("relatorioForm");
  form.addEventListener("submit", async (e) => {
    const button = e.submitter;
    if (!button) return;
    e.preventDefault();

    const result = document.getElementById("resultRelatorio");
    const action = button.getAttribute("formaction");
    result.innerHTML = "<p>Consultando a API Kairos...</p>";
    result.style.display = "block";

    let response;
    try {
      response = await fetch(action, { method: "POST", body: new URLSearchParams(new FormData(form)) });
    } catch (error) {
      result.innerHTML = "<p class=\"error\"></p>";
      result.firstChild.textContent = "Erro de conexão: " + error.message;
      return;
    }

    if (response.ok && action.endsWith("/exportar")) {
      const link = document.createElement("a");
      link.href = URL.createObjectURL(await response.blob());
      link.download = "relatorio_ponto.xlsx";
      link.click();
      URL.revokeObjectURL(link.href);
      result.style.display = "none";
      return;
    }

    const doc = new DOMParser().parseFromString(await response.text(), "text/html");
    const panel = doc.getElementById("resultRelatorio");
    if (response.ok && panel) {
      result.replaceWith(panel);
      return;
    }
    result.style.display = "none";
    doc.querySelectorAll(".alert").forEach((el) => alert(el.textContent));
  });
});
</script>
</body>
</html>
`
